// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"examdesk/cli/internal/backend"
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

// startSpinner shows text next to a rotating frame in a pterm area until the
// returned function is called. The area is removed when done. Nothing is drawn
// when stdout is not a terminal.
func startSpinner(text string) func() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return func() {}
	}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return func() {}
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				i++
				area.Update(fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], text))
			case <-stop:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			_ = area.Stop()
			cursor.Show()
		})
	}
}

// profileTable renders the profile fields sorted by key.
func profileTable(p backend.Profile) pterm.TableData {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := pterm.TableData{{"Field", "Value"}}
	for _, k := range keys {
		data = append(data, []string{k, fmt.Sprint(p[k])})
	}
	return data
}

// slotTable renders slots as table rows.
func slotTable(slots []backend.Slot) pterm.TableData {
	data := pterm.TableData{{"ID", "Date", "Time", "Exam", "Laboratory", "Operator"}}
	for _, s := range slots {
		data = append(data, []string{
			string(s.AvailabilityID),
			s.Date,
			s.Start + "-" + s.End,
			s.ExamType,
			s.Laboratory,
			s.Operator,
		})
	}
	return data
}

func notLoggedIn() {
	fmt.Println("🔒 You're not logged in yet!")
	fmt.Println("   Run 'examdesk login' to get started.")
}
