// bucket-stats — CLI utility: один цикл синхронизации без TUI.
//
// Печатает коллекцию и статистику — быстрая проверка доступа к бакету
// и логики цикла на живом endpoint'е.
//
// Использование:
//
//	./bucket-stats [config.yaml]
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ilkoid/kadr/internal/app"
	"github.com/ilkoid/kadr/pkg/gallery"
)

func main() {
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	state, err := app.New(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Init error: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("📦 Syncing bucket '%s'...\n\n", state.Config.S3.Bucket)

	snap, err := state.Sync.Sync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(1)
	}

	if len(snap.Records) == 0 {
		fmt.Println("Bucket has no JPEG objects.")
		return
	}

	for _, r := range snap.Records {
		fmt.Printf("  • %-40s %10s  %s\n",
			r.Name, gallery.FormatSize(r.Size), r.LastModified.Format("2006-01-02 15:04:05"))
	}

	fmt.Printf("\n📊 Stats:\n")
	fmt.Printf("   Last hour: %d\n", snap.Stats.LastHour)
	fmt.Printf("   Today:     %d\n", snap.Stats.Today)
	fmt.Printf("   Total:     %d\n", snap.Stats.Total)
}
