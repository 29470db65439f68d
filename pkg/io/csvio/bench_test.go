package csvio

import (
	"fmt"
	"strings"
	"testing"
)

func BenchmarkRead(b *testing.B) {
	var sb strings.Builder
	sb.WriteString("a,b,c\n")
	for i := 0; i < 5000; i++ {
		if i%7 == 0 {
			fmt.Fprintf(&sb, ",%d,x\n", i)
			continue
		}
		fmt.Fprintf(&sb, "%d.5,%d,y\n", i, i)
	}
	p := writeTemp(b, "bench.csv", sb.String())
	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		fr, err := Read(p, ReaderOptions{HasHeader: true})
		if err != nil {
			b.Fatal(err)
		}
		if fr.Rows() == 0 {
			b.Fatal("no rows")
		}
	}
}
