package main

import (
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

// SysInfo is a snapshot of the machine a sweep ran on; timings are meaningless without it.
type SysInfo struct {
	Arch     string  `json:"arch"`
	Hostname string  `json:"hostname"`
	Platform string  `json:"platform"`
	CPUCount int     `json:"cpu_count"`
	CPUFreq  float64 `json:"cpu_freq"`
	RAM      float64 `json:"ram_gib"`
}

func HostStat() SysInfo {
	info := SysInfo{Arch: runtime.GOARCH}
	if hostStat, err := host.Info(); err == nil {
		info.Hostname = hostStat.Hostname
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		totalFreq := 0.0
		for _, cpu := range cpuStat {
			totalFreq += cpu.Mhz
		}
		info.CPUCount = len(cpuStat)
		info.CPUFreq = totalFreq / float64(len(cpuStat)) * 1000
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = float64(vmStat.Total) / 1024 / 1024 / 1024
	}
	return info
}

// Parameters flattens the snapshot into the key/value shape stored next to measurements.
func (s SysInfo) Parameters() map[string]any {
	return map[string]any{
		"arch":     s.Arch,
		"hostname": s.Hostname,
		"platform": s.Platform,
		"ram":      s.RAM,
		"cpu":      s.CPUCount,
		"freq":     s.CPUFreq,
	}
}
