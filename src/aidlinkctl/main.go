// aidlinkctl is the command-line client for the AidLink platform.
package main

import (
	"github.com/aidlink/aidlink/src/aidlinkctl/internal/cmd"
)

func main() {
	cmd.Execute()
}
