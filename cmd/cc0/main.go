// Command cc0 compiles a single C0 source file to a p-code image.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
