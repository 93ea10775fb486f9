package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ilkoid/kadr/internal/app"
	"github.com/ilkoid/kadr/internal/ui"
	"github.com/ilkoid/kadr/pkg/utils"
)

func main() {
	// Конфиг ищется рядом с бинарником
	cfgPath := "config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	// TUI рисует в stdout, логи — в файл
	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "Logger Error: %v\n", err)
		os.Exit(1)
	}
	defer utils.Close()

	state, err := app.New(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Init Error: %v\n", err)
		os.Exit(1)
	}
	defer state.Close()

	p := tea.NewProgram(
		ui.InitialModel(state),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
