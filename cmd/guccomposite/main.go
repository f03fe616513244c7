package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/AMChumak/guccomposite"
)

func main() {
	var (
		serialize       = flag.Bool("serialize", false, "print in serialize mode instead of display mode")
		expandThreshold = flag.Int("expand-threshold", 16, "dynamic array length at which the expanded form is used")
	)
	flag.Parse()

	reg := guccomposite.NewRegistry()
	reg.ExpandThreshold = *expandThreshold

	if err := reg.DefineType("node", "string name; int state"); err != nil {
		log.Fatalf("define node: %s", err)
	}
	if err := reg.DefineType("cluster", "string name; int size; node[10] nodes"); err != nil {
		log.Fatalf("define cluster: %s", err)
	}

	var text string
	if flag.NArg() > 0 {
		text = flag.Arg(0)
	} else {
		data, err := io.ReadAll(bufio.NewReader(os.Stdin))
		if err != nil {
			log.Fatalf("read stdin: %s", err)
		}
		text = string(data)
	}

	typeName := "cluster"
	if flag.NArg() > 1 {
		typeName = flag.Arg(1)
	}

	v, err, hint := reg.ParseComposite(text, typeName, nil, guccomposite.FlagNone)
	if err != nil {
		log.Fatalf("parse %s: %s (%s)", typeName, err, hint)
	}

	mode := guccomposite.ModeDisplay
	if *serialize {
		mode = guccomposite.ModeSerialize
	}
	out, err := reg.Serialize(v, typeName, mode)
	if err != nil {
		log.Fatalf("serialize %s: %s", typeName, err)
	}
	fmt.Println(out)
}
