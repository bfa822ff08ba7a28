package common_test

import (
	"fmt"

	"github.com/mataton/woltka/internal/common"
)

func ExampleSortedKeys() {
	m := map[string]int{"b": 2, "a": 1, "c": 3}
	fmt.Println(common.SortedKeys(m))

	// Output:
	// [a b c]
}

func ExampleToSet() {
	set := common.ToSet([]string{"S1", "S2"})
	fmt.Println(common.Contains(set, "S1"), common.Contains(set, "S3"))
	fmt.Println(common.ToSet[[]string](nil) == nil)

	// Output:
	// true false
	// true
}
