package utils_test

import (
	"fmt"

	"config-mapper/utils"
)

func ExampleIsInRange() {
	fmt.Println(utils.IsInRange(0, 7, 10))
	fmt.Println(utils.IsInRange(0.0, -1, 10))
	fmt.Println(utils.AtLeast(0, -3), utils.AtLeast(0, 4))
	// Output:
	// true
	// false
	// 0 4
}
