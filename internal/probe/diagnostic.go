package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"

	"github.com/qiniu/x/log"
	"github.com/vkendeavour/vkbuild/internal/command"
)

// Field names reported for the primary GPU.
const (
	FieldDeviceName    = "deviceName"
	FieldDeviceType    = "deviceType"
	FieldDriverVersion = "driverVersion"
)

// RequiredFields are collected from the first record before the scan stops.
var RequiredFields = []string{FieldDeviceName, FieldDeviceType, FieldDriverVersion}

// GPUFields maps field names to values for exactly one device record.
type GPUFields map[string]string

// Complete reports whether every required field is present.
func (f GPUFields) Complete() bool {
	for _, k := range RequiredFields {
		if _, ok := f[k]; !ok {
			return false
		}
	}
	return true
}

// DiagnosticSummary is what the diagnostic tool tells about the system.
type DiagnosticSummary struct {
	InstanceVersion Option[string]
	// GPU holds the fields of the first device only. It may be partial
	// when the output ended before all required fields were seen.
	GPU GPUFields
}

var (
	instanceVersionRe = regexp.MustCompile(`Vulkan Instance Version:\s+(.*)`)
	recordStartRe     = regexp.MustCompile(`^GPU\d+:`)
	fieldRe           = regexp.MustCompile(`^([A-Za-z]+)\s*=\s*(.*)$`)
)

type scanState int

const (
	outsideRecord scanState = iota
	insideRecord
	scanDone
)

// summaryScanner is a line automaton over the tool output. It only ever
// reports the first device record: the scan ends when that record holds all
// required fields or when a second record starts.
type summaryScanner struct {
	state           scanState
	instanceVersion string
	gpu             GPUFields
}

func (s *summaryScanner) step(line string) {
	switch s.state {
	case outsideRecord:
		if m := instanceVersionRe.FindStringSubmatch(line); m != nil {
			s.instanceVersion = strings.TrimSpace(m[1])
			return
		}
		if recordStartRe.MatchString(line) {
			s.state = insideRecord
		}
	case insideRecord:
		if recordStartRe.MatchString(line) {
			s.state = scanDone
			return
		}
		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			return
		}
		s.gpu[m[1]] = strings.TrimSpace(m[2])
		if s.gpu.Complete() {
			s.state = scanDone
		}
	}
}

// ParseDiagnostic scans the summary output of the diagnostic tool. Lines are
// trimmed before matching; malformed lines are skipped. Input after the first
// complete record is not read.
func ParseDiagnostic(r io.Reader) (*DiagnosticSummary, error) {
	s := &summaryScanner{gpu: GPUFields{}}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.state != scanDone && sc.Scan() {
		s.step(strings.TrimSpace(sc.Text()))
	}
	sum := &DiagnosticSummary{GPU: s.gpu}
	if s.instanceVersion != "" {
		sum.InstanceVersion = Some(s.instanceVersion)
	} else {
		sum.InstanceVersion = None[string]("not reported")
	}
	return sum, sc.Err()
}

// Diagnostic runs the graphics diagnostic tool and parses its output.
type Diagnostic struct {
	Tool     string
	Args     []string
	LookPath func(file string) (string, error)
	Runner   command.Runner
}

// NewDiagnostic returns a Diagnostic searching the process PATH for tool.
func NewDiagnostic(tool string, args []string, runner command.Runner) *Diagnostic {
	return &Diagnostic{Tool: tool, Args: args, LookPath: exec.LookPath, Runner: runner}
}

// Run invokes the tool with its combined output captured. A missing tool, a
// failed start or a non-zero exit yield an absent result.
func (d *Diagnostic) Run(ctx context.Context) Option[*DiagnosticSummary] {
	path, err := d.LookPath(d.Tool)
	if err != nil {
		log.Debugf("probe: %s: %v", d.Tool, err)
		return None[*DiagnosticSummary]("not found on PATH")
	}
	res, err := d.Runner.Run(ctx, &command.Command{
		Name:    path,
		Args:    d.Args,
		Capture: command.CaptureCombined,
	})
	if err != nil {
		return None[*DiagnosticSummary](fmt.Sprintf("%s failed to start: %v", path, err))
	}
	if !res.Succeeded() {
		return None[*DiagnosticSummary](fmt.Sprintf("%s exited with status %d", path, res.ExitCode))
	}
	sum, err := ParseDiagnostic(bytes.NewReader(res.Output))
	if err != nil {
		// Whatever was collected before the read error is still reported.
		log.Warnf("probe: reading %s output: %v", d.Tool, err)
	}
	return Some(sum)
}
