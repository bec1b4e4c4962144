// sleeplog - Infant Activity Log Analysis
//
// sleeplog parses the delimiter-separated activity logs exported by baby
// tracking apps, cleans the sleep records and summarizes daily sleep and
// nap patterns.
package main

import (
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/ccollicutt/sleeplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
