package walk_test

import (
	"fmt"

	"github.com/matzehuels/testplot/pkg/hierarchy"
	"github.com/matzehuels/testplot/pkg/hierarchy/walk"
)

func ExampleLeafSets() {
	root := hierarchy.NewCollection("cubic vs reno", "",
		hierarchy.NewLeafSet("1 flow", "", "f1/test-001", "f1/test-002", "f1/test-003"),
		hierarchy.NewLeafSet("2 flows", "", "f2/test-001", "f2/test-002"),
	)

	end, _ := walk.LeafSets(root, func(n *hierarchy.Node, first bool, x int) error {
		fmt.Printf("%-8s x=%d first=%v\n", n.Title, x, first)
		return nil
	})
	fmt.Println("end:", end)
	// Output:
	// 1 flow   x=0 first=true
	// 2 flows  x=4 first=false
	// end: 8
}

func ExampleSetsReverse() {
	root := hierarchy.NewCollection("root", "",
		hierarchy.NewCollection("cubic", "",
			hierarchy.NewLeafSet("10 ms", "", "a", "b"),
			hierarchy.NewLeafSet("50 ms", "", "c", "d"),
		),
	)

	_, _ = walk.SetsReverse(root, func(n *hierarchy.Node, x, depth, width int) error {
		fmt.Printf("%s depth=%d x=%d width=%d\n", n.Title, depth, x, width)
		return nil
	})
	// Output:
	// 10 ms depth=1 x=0 width=3
	// 50 ms depth=1 x=3 width=3
	// cubic depth=0 x=0 width=7
}
