// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package display

import "fmt"

const Tool = "fabrica"

func Success(msg string) {
	fmt.Print(Green(fmt.Sprintf("%s\n", msg)))
}

func Failure(msg string) {
	fmt.Print(Red(fmt.Sprintf("%s\n", msg)))
}

func Info(msg string) {
	fmt.Print(Grey(fmt.Sprintf("%s\n", msg)))
}
