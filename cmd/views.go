// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"

	"examdesk/cli/internal/backend"
	"examdesk/cli/internal/router"

	"github.com/pterm/pterm"
)

// viewFunc renders the page a guard decision resolved to.
type viewFunc func(ctx context.Context, a *app, d router.Decision) error

// views maps route View names to their renderers.
var views = map[string]viewFunc{
	"Home":           homeView,
	"Login":          loginView,
	"NewBooking":     newBookingView,
	"ManageBookings": manageBookingsView,
}

func renderView(ctx context.Context, a *app, d router.Decision) error {
	v, ok := views[d.Route.View]
	if !ok {
		return fmt.Errorf("no view registered for %q", d.Route.View)
	}
	return v(ctx, a, d)
}

func homeView(_ context.Context, a *app, _ router.Decision) error {
	pterm.DefaultHeader.Println("Examdesk")
	if st := a.auth.State(); st.LoggedIn {
		fmt.Printf("Signed in as %s\n\n", st.User.DisplayName())
	} else {
		fmt.Println("Not signed in. Pages marked with 🔒 need 'examdesk login'.")
		fmt.Println()
	}
	return renderRoutes(a.nav.Table())
}

func loginView(_ context.Context, _ *app, d router.Decision) error {
	pterm.DefaultSection.Println("Login")
	if d.From != "" {
		fmt.Printf("Sign in to continue to %s:\n", d.From)
		fmt.Printf("  examdesk login --redirect %s\n", d.From)
		return nil
	}
	fmt.Println("Sign in with:")
	fmt.Println("  examdesk login")
	return nil
}

func newBookingView(ctx context.Context, a *app, _ router.Decision) error {
	pterm.DefaultSection.Println("New booking")
	var slots []backend.Slot
	err := a.auth.Authorized(ctx, func(ctx context.Context, token string) error {
		var err error
		slots, err = a.api.Slots(ctx, token, backend.SlotQuery{})
		return err
	})
	if err != nil {
		return err
	}
	if len(slots) == 0 {
		fmt.Println("No slots are available right now.")
		return nil
	}
	fmt.Println("Available slots:")
	if err := pterm.DefaultTable.WithHasHeader().WithData(slotTable(slots)).Render(); err != nil {
		return err
	}
	fmt.Println("Narrow the list with 'examdesk slots --exam-type <id> --from <date>'.")
	return nil
}

func manageBookingsView(_ context.Context, a *app, _ router.Decision) error {
	pterm.DefaultSection.Println("Manage bookings")
	st := a.auth.State()
	fmt.Printf("Account of %s\n", st.User.DisplayName())
	return pterm.DefaultTable.WithHasHeader().WithData(profileTable(st.User)).Render()
}

// renderRoutes prints the route table.
func renderRoutes(t *router.Table) error {
	data := pterm.TableData{{"Path", "Name", "View", "Login"}}
	for _, r := range t.Routes() {
		lock := ""
		if r.RequiresAuth {
			lock = "🔒"
		}
		data = append(data, []string{r.Path, r.Name, r.View, lock})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
