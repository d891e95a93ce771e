// Command barview shows a scrollable document under a header bar that
// collapses, settles and expands with the scroll gestures.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/barview"
	"github.com/xqrs/barview/config"
	"github.com/xqrs/barview/layers"
)

func main() {
	configPath := flag.String("config", "", "config file (default: XDG config dir, then ./barview.toml)")
	title := flag.String("title", "barview", "header title")
	flag.Parse()

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}
	cfg, err := config.Load(paths...)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	barConfig, err := cfg.Bar.Configuration()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	keys := cfg.Keys.KeyMap()

	var content string
	if flag.NArg() > 0 {
		data, err := os.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("read %s: %v", flag.Arg(0), err)
		}
		content = string(data)
	} else {
		content = sampleText()
	}

	app := barview.NewApplication()

	view := barview.NewScrollView().
		SetScheduler(app).
		SetKeyMap(keys.View)
	view.SetText(content, tcell.StyleDefault.Foreground(barview.Styles.PrimaryTextColor))

	header := barview.NewHeaderBar(*title).
		SetSubtitle("drag or scroll up past the top to expand")
	header.SetColors(cfg.Bar.Colors.Resolve())

	stack := layers.New()
	stack.AddLayer(view, layers.WithName("content"), layers.WithResize(true))
	stack.AddLayer(header, layers.WithName("header"), layers.WithResize(true), layers.WithEnabled(false))

	controller, err := barview.NewBarController(barview.WeakSurface(view), barConfig)
	if err != nil {
		log.Fatalf("bar: %v", err)
	}
	defer controller.Close()
	controller.SetSubscriber(barview.WeakSubscriber(header))

	root := newFrame(stack, keys, controller)
	if err := app.SetRoot(root).Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func sampleText() string {
	var b strings.Builder
	for i := 1; i <= 120; i++ {
		fmt.Fprintf(&b, "%3d  The bar above tracks this document's scroll position.\n", i)
	}
	return b.String()
}
