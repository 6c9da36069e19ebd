/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT license, see LICENSE in the project root for details.
*/
package version

import (
	"fmt"
	"os"
)

var (
	GitCommit, Version string
)

func Release() string {
	if Version == "" {
		Version = "dev"
	}

	return Version
}

func Commit() string {
	return GitCommit
}

func Banner() string {
	return `
  __ _                                       _
 / _| | _____      _____ ___  _ __  ___  ___ | | ___
| |_| |/ _ \ \ /\ / / __/ _ \| '_ \/ __|/ _ \| |/ _ \
|  _| | (_) \ V  V / (_| (_) | | | \__ \ (_) | |  __/
|_| |_|\___/ \_/\_/ \___\___/|_| |_|___/\___/|_|\___|
 `
}

func Print() {
	noColor, ok := os.LookupEnv("NO_COLOR")
	if ok && (noColor == "1" || noColor == "true") {
		fmt.Printf("%s\n", Banner())
	} else {
		fmt.Printf("\033[34m%s\033[0m\n", Banner())
	}
	fmt.Printf("Release: %s\n", Release())
	fmt.Printf("Commit:  %s\n", Commit())
}
