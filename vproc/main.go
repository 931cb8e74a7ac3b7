// Command vproc runs plugin processes on simulated hosts.
package main

import "github.com/sarchlab/vproc/vproc/cmd"

func main() {
	cmd.Execute()
}
