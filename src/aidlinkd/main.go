// aidlinkd is the API server for the AidLink community aid platform.
// It exposes REST APIs for posting community needs, browsing the public
// feed and the organizations directory.
package main

import (
	"github.com/aidlink/aidlink/src/aidlinkd/core"
)

func main() {
	core.Execute()
}
