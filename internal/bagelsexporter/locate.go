package bagelsexporter

import (
	"fmt"
	"os/exec"
	"strings"

	"k8s.io/klog"
)

// LocateDatabase asks the bagels binary where its database lives. The last
// stdout line is the path.
func LocateDatabase() (string, error) {
	klog.Infof("Attempting to locate bagels database\n")

	out, err := exec.Command("bagels", "locate", "database").Output()
	if err != nil {
		return "", fmt.Errorf("bagels not found, check that it is installed correctly: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	path := strings.TrimSpace(lines[len(lines)-1])

	if path == "" {
		return "", fmt.Errorf("bagels did not report a database path")
	}

	klog.Infof("Bagels database located at %s\n", path)

	return path, nil
}
