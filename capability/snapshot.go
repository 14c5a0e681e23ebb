package capability

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/epsilon-records/audiokit/node"
)

// AcceleratorEnvVar overrides accelerator detection, e.g. for CI.
const AcceleratorEnvVar = "AUDIOKIT_ACCELERATOR"

// Snapshot describes the host environment at probe time.
type Snapshot struct {
	// Accelerator is the detected accelerator ("cuda"), empty for none.
	Accelerator string
	// MemoryMB is the available memory. Zero means unknown.
	MemoryMB int
	// Weights maps weight file names to installed state.
	Weights map[string]bool
	// Binaries maps model binary names to resolvable state.
	Binaries map[string]bool
}

// Detector produces environment snapshots.
type Detector interface {
	Snapshot(ctx context.Context) (*Snapshot, error)
}

// HostDetector inspects the real host. It resolves the weight files and
// binaries declared by every registered node type so a single snapshot can
// answer all probes of one pipeline run.
type HostDetector struct {
	// Registry supplies the requirements to look for.
	Registry *node.Registry
	// WeightsDir is where model weights are installed.
	WeightsDir string
	// Binaries maps node types to configured binary paths, overriding
	// PATH resolution.
	Binaries map[string]string
}

// Snapshot gathers the current environment.
func (d *HostDetector) Snapshot(_ context.Context) (*Snapshot, error) {
	snap := &Snapshot{
		Accelerator: detectAccelerator(),
		MemoryMB:    availableMemoryMB(),
		Weights:     make(map[string]bool),
		Binaries:    make(map[string]bool),
	}

	for _, desc := range d.Registry.List() {
		for _, w := range desc.Requires.Weights {
			if _, seen := snap.Weights[w]; seen {
				continue
			}
			_, err := os.Stat(filepath.Join(d.WeightsDir, w))
			snap.Weights[w] = err == nil
		}
		if bin := desc.Requires.Binary; bin != "" {
			if _, seen := snap.Binaries[bin]; seen {
				continue
			}
			snap.Binaries[bin] = d.resolveBinary(desc.Type, bin)
		}
	}
	return snap, nil
}

func (d *HostDetector) resolveBinary(nodeType, bin string) bool {
	if override, ok := d.Binaries[nodeType]; ok {
		_, err := os.Stat(override)
		return err == nil
	}
	_, err := exec.LookPath(bin)
	return err == nil
}

func detectAccelerator() string {
	if acc := os.Getenv(AcceleratorEnvVar); acc != "" {
		if acc == "none" {
			return ""
		}
		return acc
	}
	if _, err := exec.LookPath("nvidia-smi"); err == nil {
		return "cuda"
	}
	return ""
}

// availableMemoryMB reads MemAvailable from /proc/meminfo. Returns zero on
// platforms without it; zero is treated as unknown, not as no memory.
func availableMemoryMB() int {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.Atoi(fields[1])
		if err != nil {
			return 0
		}
		return kb / 1024
	}
	return 0
}
