// nasrctl inspects and decodes a NASR distribution without Kafka: it prints
// layouts, validates every data line, and dumps decoded rows as JSON.
package main

import (
	"os"

	"github.com/couchcryptid/nasr-etl/cmd/nasrctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
