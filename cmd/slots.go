// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"time"

	"examdesk/cli/internal/auth"
	"examdesk/cli/internal/backend"
	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/httperrors"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	slotsOffset     int
	slotsLimit      int
	slotsFrom       string
	slotsTo         string
	slotsExamType   string
	slotsOperator   string
	slotsLaboratory string
)

// slotsCmd lists available exam slots. It needs a signed-in account; a
// credential the server rejects ends the local session.
var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "List available exam slots",
	Long: `The slots command lists bookable exam slots, one page at a time. Filter by exam
type, operator or laboratory id, and by a date window. Dates accept 2006-01-02,
2006-01-02T15:04 or 2006-01-02T15:04:05.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := slotQueryFromFlags()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		stop := startSpinner("Loading slots")
		slots, err := fetchSlots(ctx, a, q)
		stop()
		switch {
		case err == nil:
		case err == auth.ErrNoCredential:
			notLoggedIn()
			return nil
		case apperrors.IsKind(err, apperrors.AuthRejected):
			pterm.Warning.Println("Your session has expired. Run 'examdesk login' again.")
			return err
		case apperrors.IsKind(err, apperrors.NetworkFailure):
			return httperrors.FormatNetworkError(err, "loading slots", a.cfg.APIURL)
		default:
			return err
		}

		if len(slots) == 0 {
			fmt.Println("No slots match.")
			return nil
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(slotTable(slots)).Render(); err != nil {
			return err
		}
		if q.Limit > 0 && len(slots) == q.Limit {
			fmt.Printf("Next page: examdesk slots --offset %d --limit %d\n", q.Offset+q.Limit, q.Limit)
		}
		return nil
	},
}

func init() {
	f := slotsCmd.Flags()
	f.IntVar(&slotsOffset, "offset", 0, "Number of slots to skip")
	f.IntVar(&slotsLimit, "limit", backend.DefaultSlotLimit, "Page size")
	f.StringVar(&slotsFrom, "from", "", "Earliest slot start")
	f.StringVar(&slotsTo, "to", "", "Latest slot start")
	f.StringVar(&slotsExamType, "exam-type", "", "Exam type id")
	f.StringVar(&slotsOperator, "operator", "", "Operator id")
	f.StringVar(&slotsLaboratory, "laboratory", "", "Laboratory id")
	rootCmd.AddCommand(slotsCmd)
}

func fetchSlots(ctx context.Context, a *app, q backend.SlotQuery) ([]backend.Slot, error) {
	var slots []backend.Slot
	err := a.auth.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		slots, err = a.api.Slots(ctx, token, q)
		return err
	})
	return slots, err
}

func slotQueryFromFlags() (backend.SlotQuery, error) {
	q := backend.SlotQuery{
		Offset:       slotsOffset,
		Limit:        slotsLimit,
		ExamTypeID:   slotsExamType,
		OperatorID:   slotsOperator,
		LaboratoryID: slotsLaboratory,
	}
	var err error
	if q.From, err = parseWhen(slotsFrom); err != nil {
		return q, fmt.Errorf("--from: %w", err)
	}
	if q.To, err = parseWhen(slotsTo); err != nil {
		return q, fmt.Errorf("--to: %w", err)
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return q, fmt.Errorf("--to is before --from")
	}
	return q, nil
}

var whenLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"}

// parseWhen parses a local date or date-time. Empty input is the zero time.
func parseWhen(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
