package probe

import (
	"context"

	"github.com/vkendeavour/vkbuild/internal/command"
	"github.com/vkendeavour/vkbuild/internal/config"
)

// ToolEntry is the probe result for one required executable.
type ToolEntry struct {
	Name       string
	Executable Option[ExecutableInfo]
	// Requirement is nil when no version constraint is configured.
	Requirement *Requirement
}

// Report is the environment capability report of one run. It is built once
// and not modified afterwards.
type Report struct {
	Loader           Option[string]
	LoaderCandidates []string

	// Diagnostics is the resolved diagnostic tool, or why it did not run.
	Diagnostics         Option[string]
	InstanceVersion     Option[string]
	InstanceRequirement *Requirement
	GPU                 GPUFields

	Toolchain []ToolEntry
}

// Tool returns the entry for name.
func (r *Report) Tool(name string) (ToolEntry, bool) {
	for _, e := range r.Toolchain {
		if e.Name == name {
			return e, true
		}
	}
	return ToolEntry{}, false
}

// Reporter runs every probe and aggregates the results.
type Reporter struct {
	Resolver   *Resolver
	Diagnostic *Diagnostic
	Open       Opener

	LoaderCandidates   []string
	Tools              []string
	Requirements       map[string]string
	MinInstanceVersion string
}

// NewReporter returns a Reporter for the doctor settings of a project.
func NewReporter(d config.Doctor, runner command.Runner) *Reporter {
	return &Reporter{
		Resolver:           NewResolver(runner),
		Diagnostic:         NewDiagnostic(d.DiagnosticTool, d.DiagnosticArgs, runner),
		Open:               Dlopen,
		LoaderCandidates:   d.LoaderCandidates,
		Tools:              d.Tools,
		Requirements:       d.Requirements,
		MinInstanceVersion: d.MinInstanceVersion,
	}
}

// Report runs the loader probe, the diagnostic tool and the executable
// lookups, one after the other. No probe failure stops another.
func (r *Reporter) Report(ctx context.Context) *Report {
	rep := &Report{
		LoaderCandidates: r.LoaderCandidates,
		GPU:              GPUFields{},
	}

	rep.Loader = ProbeLibrary(r.LoaderCandidates, r.Open)

	diag := r.Diagnostic.Run(ctx)
	if sum, ok := diag.Get(); ok {
		rep.Diagnostics = Some(r.Diagnostic.Tool)
		rep.InstanceVersion = sum.InstanceVersion
		rep.GPU = sum.GPU
	} else {
		rep.Diagnostics = None[string](diag.Reason())
		rep.InstanceVersion = None[string]("diagnostic tool unavailable")
	}
	if r.MinInstanceVersion != "" {
		if v, ok := rep.InstanceVersion.Get(); ok {
			rep.InstanceRequirement = CheckInstanceVersion(v, r.MinInstanceVersion)
		} else {
			rep.InstanceRequirement = &Requirement{Constraint: ">= " + r.MinInstanceVersion, Status: Unchecked}
		}
	}

	for _, name := range r.Tools {
		entry := ToolEntry{Name: name, Executable: r.Resolver.Resolve(ctx, name)}
		if c, ok := r.Requirements[name]; ok {
			if info, found := entry.Executable.Get(); found {
				entry.Requirement = CheckToolVersion(info.Version, c)
			} else {
				entry.Requirement = &Requirement{Constraint: c, Status: Unchecked}
			}
		}
		rep.Toolchain = append(rep.Toolchain, entry)
	}
	return rep
}
