// purge-bucket — CLI utility: массовое удаление всех JPEG из бакета.
//
// Требует явного подтверждения словом "yes" — операция необратима.
// Прогресс печатается по мере прохождения пачек.
//
// Использование:
//
//	./purge-bucket [config.yaml]
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilkoid/kadr/internal/app"
	"github.com/ilkoid/kadr/pkg/events"
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	snap, err := state.Sync.Sync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync error: %v\n", err)
		os.Exit(1)
	}

	if len(snap.Records) == 0 {
		fmt.Println("Nothing to delete.")
		return
	}

	fmt.Printf("⚠️  About to delete %d JPEG objects from bucket '%s'.\n", len(snap.Records), state.Config.S3.Bucket)
	fmt.Print("This is IRREVERSIBLE. Type 'yes' to continue: ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) != "yes" {
		fmt.Println("Aborted.")
		return
	}

	keys := make([]string, len(snap.Records))
	for i, r := range snap.Records {
		keys[i] = r.Key
	}

	// Прогресс читаем из шины параллельно с удалением
	sub := state.Emitter.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range sub.Events() {
			switch data := ev.Data.(type) {
			case events.BulkProgressData:
				fmt.Printf("  deleted %d / %d\n", data.Deleted, data.Total)
			case events.BulkDoneData:
				return
			}
		}
	}()

	deleted, err := state.Mutator.DeleteAll(ctx, keys)
	<-done

	if err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Halted after %d deletions: %v\n", deleted, err)
		os.Exit(1)
	}

	fmt.Printf("\n✅ Deleted %d objects.\n", deleted)
}
