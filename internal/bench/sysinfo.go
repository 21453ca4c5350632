package bench

import (
	"encoding/json"
	"os"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// RunInfo records the provenance of one batch: what ran, with which seed,
// on which machine. Stored next to the results so that numbers from
// different hosts are never compared blindly.
type RunInfo struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Algo       string `json:"algo"`
	MasterSeed int64  `json:"master_seed"`

	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`

	Platform string `json:"platform,omitempty"`
	CPUModel string `json:"cpu_model,omitempty"`
	MemGB    uint64 `json:"mem_gb,omitempty"`
}

// CollectRunInfo probes the host. Hardware fields are best effort and stay
// empty where the probe fails.
func CollectRunInfo(algo string, masterSeed int64) RunInfo {
	info := RunInfo{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),

		Algo:       algo,
		MasterSeed: masterSeed,

		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPUModel = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.MemGB = vmStat.Total / 1024 / 1024 / 1024
	}

	return info
}

func (ri RunInfo) WriteJSON(path string) error {
	if dir := dirOf(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(ri, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
