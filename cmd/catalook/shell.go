package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/catalook/catalook"
	"github.com/catalook/catalook/core"
)

// shellCommand runs an interactive search loop. Plain input searches the
// catalog; directives starting with a colon manage filters and history.
func shellCommand(c *cli.Context) error {
	catalog, _, err := openCatalog(c)
	if err != nil {
		return err
	}
	defer catalog.Close()

	fmt.Println("catalook shell - :help for directives, :quit to exit")

	filters := make(core.FilterSelection)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		if !strings.HasPrefix(line, ":") {
			result, err := catalog.Search(c.Context, core.SearchQuery{Text: line, Filters: filters}).
				Wait(c.Context)
			if err != nil {
				fmt.Printf("search failed: %v\n", err)
				continue
			}
			printResult(catalog, result, 25)
			continue
		}

		directive, arg, _ := strings.Cut(line[1:], " ")
		switch directive {
		case "quit", "q":
			return nil
		case "help":
			fmt.Println(":filter dim=value   add a filter")
			fmt.Println(":clear              drop all filters")
			fmt.Println(":history            list past searches")
			fmt.Println(":replay N           rerun history entry N")
			fmt.Println(":quit               exit")
		case "filter":
			added, err := parseFilters([]string{arg})
			if err != nil {
				fmt.Println(err)
				continue
			}
			for dim, values := range added {
				for _, value := range values {
					filters.Add(dim, value)
				}
			}
			showOptions(catalog, filters)
		case "clear":
			filters = make(core.FilterSelection)
		case "history":
			entries := catalog.History()
			if len(entries) == 0 {
				fmt.Println("no searches yet")
				continue
			}
			for i, entry := range entries {
				fmt.Printf("%2d  %s\n", i, entry.Label)
			}
		case "replay":
			index, err := strconv.Atoi(strings.TrimSpace(arg))
			if err != nil {
				fmt.Println("usage: :replay N")
				continue
			}
			handle, err := catalog.Replay(c.Context, index)
			if err != nil {
				fmt.Println(err)
				continue
			}
			result, err := handle.Wait(c.Context)
			if err != nil {
				fmt.Printf("search failed: %v\n", err)
				continue
			}
			printResult(catalog, result, 25)
		default:
			fmt.Printf("unknown directive %q\n", directive)
		}
	}
}

// showOptions reports which of the current selections became unavailable
// and what remains selectable after the latest filter change.
func showOptions(catalog *catalook.Catalog, filters core.FilterSelection) {
	opts, err := catalog.FilterOptions(filters)
	if err != nil {
		fmt.Println(err)
		return
	}
	for dim, values := range opts.Invalid {
		fmt.Printf("dropped unavailable selection: %s=%s\n", dim, strings.Join(values, ", "))
		for _, value := range values {
			filters.Remove(dim, value)
		}
	}
}
