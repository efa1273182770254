// respmaskctl validates masking policies and masks JSON documents offline.
package main

import "github.com/codeready-toolchain/respmask/pkg/cli"

func main() {
	cli.Execute()
}
