package bpe_test

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/axiomhq/bpe"
)

func Example() {
	corpus, err := bpe.CountWords(strings.NewReader("low low low lower lowest newest newest"))
	if err != nil {
		panic(err)
	}
	res, err := bpe.Learn(context.Background(), corpus, 2)
	if err != nil {
		panic(err)
	}
	if _, err := res.WriteTo(os.Stdout); err != nil {
		panic(err)
	}

	vocab, err := res.Vocabulary()
	if err != nil {
		panic(err)
	}
	seg, err := bpe.NewSegmenter(vocab)
	if err != nil {
		panic(err)
	}
	fmt.Println(seg.SegmentLine("slow lower"))
	// Output:
	// lo	5
	// low	5
	// s@@ low low@@ e@@ r
}
