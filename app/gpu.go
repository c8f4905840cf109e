package app

import (
	"fmt"
	"os/exec"
	"strings"
)

// Lspci lists PCI devices.
func Lspci() (string, error) {
	out, err := exec.Command("lspci").Output()
	return string(out), err
}

// GPUWarning returns a message when adapter is an integrated or software renderer while a discrete
// GPU is present, and "" otherwise.
func GPUWarning(adapter string, lspci func() (string, error)) string {
	name := strings.ToLower(adapter)
	if !strings.Contains(name, "intel") && !strings.Contains(name, "llvmpipe") && !strings.Contains(name, "softpipe") {
		return ""
	}

	devices, err := lspci()
	if err != nil {
		return ""
	}

	for _, line := range strings.Split(strings.ToLower(devices), "\n") {
		display := strings.Contains(line, "vga") || strings.Contains(line, "3d")
		discrete := strings.Contains(line, "nvidia") || strings.Contains(line, "amd") || strings.Contains(line, "radeon")
		if display && discrete {
			return fmt.Sprintf("Integrated GPU detected (%s) while dedicated GPU is available. Performance may be degraded.", adapter)
		}
	}
	return ""
}
