// Command seeder generates a deterministic demo connector catalog as CSV,
// for trying catalook without a real parts export.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/catalook/catalook/core"
)

var (
	outFileName = flag.String("out", "catalog.csv", "file to write the catalog to")
	maxRows     = flag.Int("rows", 0, "limit the number of generated parts (0 = all)")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

type family struct {
	name         string
	prefix       string
	shellSizes   []string
	arrangements []string
	materials    []string
	shellTypes   []string
	keyings      []string
}

// families drives the generator. The part numbering loosely follows each
// series' real scheme so the demo data reads plausibly.
var families = []family{
	{
		name:         "D38999",
		prefix:       "D38999/26",
		shellSizes:   []string{"9", "11", "13", "15", "17", "19", "21", "23", "25"},
		arrangements: []string{"35", "98", "26", "5"},
		materials:    []string{"Aluminum", "Composite", "Stainless Steel"},
		shellTypes:   []string{"W", "F", "G"},
		keyings:      []string{"N", "A", "B", "C"},
	},
	{
		name:         "VG95234",
		prefix:       "VG95234M",
		shellSizes:   []string{"10", "12", "14", "16", "18", "22"},
		arrangements: []string{"4", "10", "19"},
		materials:    []string{"Aluminum", "Brass"},
		shellTypes:   []string{"E", "T"},
		keyings:      []string{"N", "X", "Y"},
	},
	{
		name:         "MIL-DTL-26482",
		prefix:       "MS3476",
		shellSizes:   []string{"8", "10", "12", "14", "16", "20"},
		arrangements: []string{"4", "10", "15"},
		materials:    []string{"Aluminum"},
		shellTypes:   []string{"L", "W"},
		keyings:      []string{"N", "W"},
	},
}

var socketTypes = []string{"Plug", "Receptacle"}

func header() []string {
	dims := core.DefaultDimensions()
	out := make([]string, len(dims))
	for i, dim := range dims {
		out[i] = string(dim)
	}
	return out
}

// rows yields every combination in a fixed order, so runs with the same
// flags produce byte-identical catalogs.
func rows(yield func([]string) bool) {
	for _, fam := range families {
		for _, shellSize := range fam.shellSizes {
			for ai, arrangement := range fam.arrangements {
				for mi, material := range fam.materials {
					for si, socketType := range socketTypes {
						shellType := fam.shellTypes[(ai+mi)%len(fam.shellTypes)]
						keying := fam.keyings[(ai+si)%len(fam.keyings)]
						contact := "P"
						if socketType == "Receptacle" {
							contact = "S"
						}
						partNumber := fmt.Sprintf("%s%s%s%s%s%s",
							fam.prefix, shellType, shellSize, arrangement, contact, keying)
						partCode := fmt.Sprintf("%s-%s-%s", fam.name, shellSize, arrangement)

						row := []string{
							partNumber,
							partCode,
							partCode,
							fam.name,
							material,
							"Active",
							shellType,
							shellSize,
							arrangement,
							socketType,
							keying,
						}
						if !yield(row) {
							return
						}
					}
				}
			}
		}
	}
}

func main() {
	f, err := os.Create(*outFileName)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header()); err != nil {
		panic(err)
	}

	count := 0
	rows(func(row []string) bool {
		if *maxRows > 0 && count >= *maxRows {
			return false
		}
		if err := w.Write(row); err != nil {
			panic(err)
		}
		count++
		return true
	})
	w.Flush()
	if err := w.Error(); err != nil {
		panic(err)
	}

	slog.Info("catalog written", "path", *outFileName, "parts", count)
}
