// Command jobharvest collects job listings into a CSV dataset and audits it.
package main

import "github.com/pkruk/jobharvest/cmd"

func main() {
	cmd.Execute()
}
