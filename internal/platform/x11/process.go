//go:build linux

package x11

import (
	"fmt"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/mj1618/findui/internal/platform"
	"github.com/shirou/gopsutil/v4/process"
)

// Process reports the process owning the window, from _NET_WM_PID.
func (p *Provider) Process(h platform.Handle) (platform.ProcessInfo, error) {
	win, err := window(h)
	if err != nil {
		return platform.ProcessInfo{}, err
	}
	pid, err := ewmh.WmPidGet(p.conn.XUtil, win)
	if err != nil {
		return platform.ProcessInfo{}, fmt.Errorf("read _NET_WM_PID of %s: %w", Window(win).Key(), err)
	}
	info := platform.ProcessInfo{PID: int(pid)}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return info, fmt.Errorf("process %d: %w", pid, err)
	}
	if name, err := proc.Name(); err == nil {
		info.Name = name
	}
	return info, nil
}
