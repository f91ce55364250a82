package probe

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

func mark(ok bool) string {
	if ok {
		return color.GreenString("✅")
	}
	return color.RedString("❌")
}

// WriteText prints the report for humans, one block per item.
func WriteText(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("\n====== Toolchain ======\n\n")
	for _, e := range r.Toolchain {
		info, ok := e.Executable.Get()
		fmt.Fprintf(&b, "[%s] %s\n", strings.ToUpper(e.Name), mark(ok && requirementOK(e.Requirement)))
		if ok {
			fmt.Fprintf(&b, "  Path: %s\n", info.Path)
			fmt.Fprintf(&b, "  Version: %s\n", info.Version)
		} else {
			fmt.Fprintf(&b, "  %s\n", e.Executable.Reason())
		}
		writeRequirement(&b, e.Requirement)
		b.WriteString("\n")
	}

	b.WriteString("====== Graphics ======\n\n")
	lib, ok := r.Loader.Get()
	fmt.Fprintf(&b, "[VK_LOADER] %s\n", mark(ok))
	if ok {
		fmt.Fprintf(&b, "  Lib: %s\n\n", lib)
	} else {
		fmt.Fprintf(&b, "  %s: %s\n\n", r.Loader.Reason(), strings.Join(r.LoaderCandidates, ", "))
	}

	_, ok = r.Diagnostics.Get()
	fmt.Fprintf(&b, "[VK_INFO] %s\n", mark(ok && requirementOK(r.InstanceRequirement)))
	if ok {
		v, _ := r.InstanceVersion.Get()
		fmt.Fprintf(&b, "  Instance Version: %s\n", orNone(v))
		writeRequirement(&b, r.InstanceRequirement)
		fmt.Fprintf(&b, "  Device Name: %s\n", orNone(r.GPU[FieldDeviceName]))
		fmt.Fprintf(&b, "  Device Type: %s\n", orNone(r.GPU[FieldDeviceType]))
		fmt.Fprintf(&b, "  Driver Version: %s\n", orNone(r.GPU[FieldDriverVersion]))
	} else {
		fmt.Fprintf(&b, "  %s\n", r.Diagnostics.Reason())
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func requirementOK(req *Requirement) bool {
	return req == nil || req.Status == Satisfied
}

func writeRequirement(b *strings.Builder, req *Requirement) {
	if req == nil {
		return
	}
	fmt.Fprintf(b, "  Requirement: %s (%s)", req.Constraint, req.Status)
	if req.Detail != "" && req.Status != Satisfied {
		fmt.Fprintf(b, ": %s", req.Detail)
	}
	b.WriteString("\n")
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

type requirementView struct {
	Constraint string `yaml:"constraint"`
	Status     string `yaml:"status"`
	Detail     string `yaml:"detail,omitempty"`
}

type toolView struct {
	Found       bool             `yaml:"found"`
	Path        string           `yaml:"path,omitempty"`
	Version     string           `yaml:"version,omitempty"`
	Reason      string           `yaml:"reason,omitempty"`
	Requirement *requirementView `yaml:"requirement,omitempty"`
}

type loaderView struct {
	Found      bool     `yaml:"found"`
	Library    string   `yaml:"library,omitempty"`
	Reason     string   `yaml:"reason,omitempty"`
	Candidates []string `yaml:"candidates"`
}

type diagnosticsView struct {
	Found               bool              `yaml:"found"`
	Reason              string            `yaml:"reason,omitempty"`
	InstanceVersion     string            `yaml:"instance_version,omitempty"`
	InstanceRequirement *requirementView  `yaml:"instance_requirement,omitempty"`
	GPU                 map[string]string `yaml:"gpu,omitempty"`
}

type reportView struct {
	Toolchain   map[string]toolView `yaml:"toolchain"`
	Loader      loaderView          `yaml:"loader"`
	Diagnostics diagnosticsView     `yaml:"diagnostics"`
}

func viewRequirement(req *Requirement) *requirementView {
	if req == nil {
		return nil
	}
	return &requirementView{Constraint: req.Constraint, Status: req.Status.String(), Detail: req.Detail}
}

// WriteYAML prints the report as YAML.
func WriteYAML(w io.Writer, r *Report) error {
	v := reportView{Toolchain: make(map[string]toolView, len(r.Toolchain))}
	for _, e := range r.Toolchain {
		info, ok := e.Executable.Get()
		v.Toolchain[e.Name] = toolView{
			Found:       ok,
			Path:        info.Path,
			Version:     info.Version,
			Reason:      e.Executable.Reason(),
			Requirement: viewRequirement(e.Requirement),
		}
	}

	lib, ok := r.Loader.Get()
	v.Loader = loaderView{Found: ok, Library: lib, Reason: r.Loader.Reason(), Candidates: r.LoaderCandidates}

	_, ok = r.Diagnostics.Get()
	v.Diagnostics = diagnosticsView{Found: ok, Reason: r.Diagnostics.Reason()}
	if ok {
		v.Diagnostics.InstanceVersion, _ = r.InstanceVersion.Get()
		v.Diagnostics.InstanceRequirement = viewRequirement(r.InstanceRequirement)
		v.Diagnostics.GPU = r.GPU
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
