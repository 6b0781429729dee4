package flx_test

import (
	"fmt"

	"github.com/standardbeagle/flx/pkg/flx"
)

func ExampleCorpus_Query() {
	corpus := flx.NewCorpus([]string{"foobar", "foo_bar", "fb"})
	fmt.Println(corpus.Query("fb", 10))
	fmt.Println(corpus.Query("fb", 1))
	// Output:
	// [fb foo_bar foobar]
	// [fb]
}

func ExampleScore() {
	score, ok := flx.Score("foo_bar", "fb")
	fmt.Println(score, ok)

	_, ok = flx.Score("foo_bar", "fz")
	fmt.Println(ok)
	// Output:
	// 15.75 true
	// false
}
