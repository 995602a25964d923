package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog/log"

	"github.com/pigmykit/go-agent-client/credstore"
	"github.com/pigmykit/go-agent-client/internal/config"
	"github.com/pigmykit/go-agent-client/notify"
	"github.com/pigmykit/go-agent-client/session"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("agent failed")
	}
}

func run(args []string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Msgf("Recovered from panic: %v", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	if c.GetCredentialsKey() == "" {
		return errors.New("CREDENTIALS_KEY must be set")
	}

	store, err := credstore.NewFileStore(c.GetCredentialsFile(), c.GetCredentialsKey())
	if err != nil {
		return fmt.Errorf("credstore.NewFileStore: %w", err)
	}

	mgr, err := session.NewManager(c.GetBaseURL(), store, notify.LogNotifier{},
		session.WithInactivityTimeout(c.GetSessionTimeout()))
	if err != nil {
		return fmt.Errorf("session.NewManager: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mgr.Restore(ctx)

	if len(args) == 0 {
		return status(mgr)
	}

	switch args[0] {
	case "login":
		if len(args) != 3 {
			return errors.New("usage: agent login <agentno> <password>")
		}
		result := mgr.Login(ctx, args[1], args[2])
		if !result.Success {
			return fmt.Errorf("login failed: %s", result.Message)
		}
		fmt.Println("Logged in.")
		return status(mgr)
	case "logout":
		mgr.Logout(ctx)
		fmt.Println("Logged out.")
		return nil
	case "dashboard":
		snap := mgr.RefreshDashboardData(ctx)
		if snap == nil {
			return errors.New("dashboard unavailable")
		}
		summary := snap.CollectionSummary()
		fmt.Printf("Customers: %d  Accounts: %d\n", snap.TotalCustomers, snap.TotalAccounts)
		fmt.Printf("Today: %d collections, total %.2f, submitted=%v\n",
			summary.TransactionCount, summary.TotalAmount, summary.Submitted)
		return nil
	case "status":
		return status(mgr)
	default:
		return fmt.Errorf("unknown command %q (expected login, logout, dashboard, status)", args[0])
	}
}

func status(mgr *session.Manager) error {
	user := mgr.User()
	if user == nil {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("Logged in as %s (%s), %s\n", user.AgentName, user.AgentNo, user.OrgName)
	if mgr.HasActiveCollection() {
		summary := mgr.GetCollectionSummary()
		fmt.Printf("Active collection: %d transactions, total %.2f\n",
			summary.TransactionCount, summary.TotalAmount)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
