package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"ticketmate/src/api"
	"ticketmate/src/checkout"
	"ticketmate/src/config"
	"ticketmate/src/discovery"
	"ticketmate/src/resale"
	"ticketmate/src/session"
	"ticketmate/src/types"
	"ticketmate/src/utils"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

type stdinConfirmer struct {
	in *bufio.Reader
}

func (c *stdinConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: ticketmate <command> [flags]

commands:
  login      -email -password
  signup     -first -last -email -phone -password
  logout
  whoami
  profile    [-first] [-last]
  events     [-category]
  search     -q [-categories a,b]
  my-events
  tickets    -event
  buy        -event -tickets id1,id2 -agree [-payment-method]
  sell       -event -ticket -price
  delist     -ticket
  notify     -event [-off]
  interests
  barcode    -event -ticket -out file.jpeg`)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	gateway := api.NewClient(config.GetBaseURL(), nil)
	manager := session.NewManager(session.NewFileStore(config.GetSessionFile()), gateway)
	gateway.SetTokenSource(manager)
	if err := manager.Load(); err != nil {
		log.Fatalf("Error loading session: %s\n", err.Error())
	}
	defer manager.Close()
	if manager.CurrentUser() != nil {
		if err := manager.StartAutoRefresh(); err != nil {
			log.Printf("Error starting token auto refresh: %s\n", err.Error())
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "login":
		err = runLogin(ctx, manager, args)
	case "signup":
		err = runSignup(ctx, manager, args)
	case "logout":
		err = manager.Logout(ctx)
	case "whoami":
		err = runWhoami(manager)
	case "profile":
		err = runProfile(ctx, manager, args)
	case "events":
		err = runEvents(ctx, gateway, args)
	case "search":
		err = runSearch(ctx, gateway, args)
	case "my-events":
		err = runMyEvents(ctx, gateway, manager)
	case "tickets":
		err = runTickets(ctx, gateway, manager, args)
	case "buy":
		err = runBuy(ctx, gateway, manager, args)
	case "sell":
		err = runSell(ctx, gateway, manager, args)
	case "delist":
		err = runDelist(ctx, gateway, args)
	case "notify":
		err = runNotify(ctx, gateway, manager, args)
	case "interests":
		err = runInterests(ctx, gateway, manager)
	case "barcode":
		err = runBarcode(ctx, gateway, manager, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
		os.Exit(1)
	}
}

func runLogin(ctx context.Context, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	user, err := manager.Login(ctx, types.LoginRequestBody{Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("hello, %s\n", user.FirstName)
	return nil
}

func runSignup(ctx context.Context, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email")
	phone := fs.String("phone", "", "phone")
	password := fs.String("password", "", "password")
	fs.Parse(args)
	if err := manager.Signup(ctx, types.SignupRequestBody{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Phone:     *phone,
		Password:  *password,
	}); err != nil {
		return err
	}
	fmt.Println("account created, you can now login")
	return nil
}

func runWhoami(manager *session.Manager) error {
	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	claims, err := manager.Claims()
	if err != nil {
		return err
	}
	fmt.Printf("%s %s <%s>\n", user.FirstName, user.LastName, user.Email)
	fmt.Printf("uid: %s\n", claims.UID)
	if claims.ExpiresAt != nil {
		fmt.Printf("token expires: %s\n", claims.ExpiresAt.Format(time.RFC3339))
	}
	return nil
}

func runProfile(ctx context.Context, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	first := fs.String("first", "", "new first name")
	last := fs.String("last", "", "new last name")
	fs.Parse(args)
	user, err := manager.UpdateProfile(ctx, types.UpdateUserRequestBody{
		FirstName: *first,
		LastName:  *last,
	})
	if err != nil {
		return err
	}
	fmt.Printf("profile updated: %s %s\n", user.FirstName, user.LastName)
	return nil
}

func runEvents(ctx context.Context, gateway *api.Client, args []string) error {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	category := fs.String("category", "All", "last-minute category filter")
	fs.Parse(args)
	svc := discovery.NewService(gateway)
	part, err := svc.FetchAndPartition(ctx, *category)
	if err != nil {
		return err
	}
	fmt.Printf("Trending Events in %s\n", config.GetTargetCity())
	for _, e := range part.Trending {
		fmt.Printf("  %-24s %-12s ends %s\n", e.Name, e.Status, e.EndDate.Format(time.DateOnly))
	}
	fmt.Println("Last Minute Deals")
	if len(part.LastMinute) == 0 {
		fmt.Println("  There are no last minute deals currently")
	}
	for _, e := range part.LastMinute {
		fmt.Printf("  %-24s %-12s ends %s\n", e.Name, e.Status, e.EndDate.Format(time.DateOnly))
	}
	fmt.Println("All Events")
	for _, e := range part.Upcoming {
		buyable := ""
		if e.Status.CanBuy() {
			buyable = "[buy]"
		} else if e.Status.CanSubscribe() {
			buyable = "[notify]"
		}
		fmt.Printf("  %s  %-24s %-12s %s\n", e.ID, e.Name, e.Status, buyable)
	}
	return nil
}

func runSearch(ctx context.Context, gateway *api.Client, args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	query := fs.String("q", "", "search text")
	categories := fs.String("categories", "", "comma-separated categories")
	fs.Parse(args)
	svc := discovery.NewService(gateway)
	var cats []string
	if *categories != "" {
		cats = strings.Split(*categories, ",")
	}
	events, err := svc.Search(ctx, *query, cats)
	if err != nil {
		return err
	}
	for _, e := range events {
		fmt.Printf("%s  %-24s %-12s %s\n", e.ID, e.Name, e.Type, e.Status)
	}
	return nil
}

func runMyEvents(ctx context.Context, gateway *api.Client, manager *session.Manager) error {
	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	svc := discovery.NewService(gateway)
	events, err := svc.MyEvents(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("You don't have any tickets yet. Start exploring events and grab your first ticket!")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  %-24s %d ticket(s)  starts in %s\n",
			e.ID, e.Name, e.TicketCount, utils.FormatCountdown(e.StartDate, time.Now()))
	}
	return nil
}

func runTickets(ctx context.Context, gateway *api.Client, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("tickets", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	fs.Parse(args)
	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	event, err := gateway.GetEventByID(ctx, *eventID)
	if err != nil {
		return err
	}
	tickets, err := gateway.GetTicketsByUserAndEventID(ctx, user.ID, *eventID)
	if err != nil {
		return err
	}
	if len(tickets) == 0 {
		fmt.Println("No tickets available for this event.")
		return nil
	}
	for _, t := range tickets {
		status := "not on sale"
		if t.OnSale && t.ResalePrice != nil {
			status = fmt.Sprintf("On Sale: $%.2f", *t.ResalePrice)
		}
		barcode := "hidden"
		if utils.BarcodeRevealed(event.StartDate, time.Now()) {
			barcode = t.Barcode
		}
		fmt.Printf("%s  Position: %-8s %-18s Barcode: %s\n", t.ID, t.Position, status, barcode)
	}
	return nil
}

func runBuy(ctx context.Context, gateway *api.Client, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("buy", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	ticketIDs := fs.String("tickets", "", "comma-separated ticket ids")
	agree := fs.Bool("agree", false, "agree to the terms of sale")
	paymentMethod := fs.String("payment-method", "", "payment method id")
	fs.Parse(args)

	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	event, err := gateway.GetEventByID(ctx, *eventID)
	if err != nil {
		return err
	}
	if !event.Status.CanBuy() {
		return fmt.Errorf("tickets for %q are not on sale (%s)", event.Name, event.Status)
	}
	available, err := gateway.GetTicketsByEventID(ctx, *eventID)
	if err != nil {
		return err
	}
	purchasable := checkout.PurchasableTickets(available, user.ID)
	wanted := map[string]bool{}
	for _, id := range strings.Split(*ticketIDs, ",") {
		if id = strings.TrimSpace(id); id != "" {
			wanted[id] = true
		}
	}
	sel := checkout.NewSelection()
	for _, t := range purchasable {
		if wanted[t.ID] {
			sel.Toggle(t, true)
		}
	}
	if sel.Len() != len(wanted) {
		return fmt.Errorf("only %d of %d requested tickets are available to you", sel.Len(), len(wanted))
	}

	workflow := checkout.NewWorkflow(gateway)
	workflow.PaymentMethod = *paymentMethod
	fmt.Printf("Total: $%s for %d ticket(s)\n", sel.Total().StringFixed(2), sel.Len())
	co, err := workflow.Purchase(ctx, sel, user, *agree)
	if err != nil {
		if co != nil && co.State == checkout.StateFailedNeedsReconciliation {
			fmt.Fprintf(os.Stderr, "Payment %s was captured but the purchase did not complete. Contact support.\n", co.PaymentIntentID)
		}
		return err
	}
	fmt.Printf("Purchase complete (payment %s)\n", co.PaymentIntentID)
	return nil
}

func runSell(ctx context.Context, gateway *api.Client, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("sell", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	ticketID := fs.String("ticket", "", "ticket id")
	price := fs.String("price", "", "resale price")
	fs.Parse(args)

	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	event, err := gateway.GetEventByID(ctx, *eventID)
	if err != nil {
		return err
	}
	tickets, err := gateway.GetTicketsByUserAndEventID(ctx, user.ID, *eventID)
	if err != nil {
		return err
	}
	workflow := resale.NewWorkflow(gateway, &stdinConfirmer{in: bufio.NewReader(os.Stdin)})
	for _, t := range tickets {
		if t.ID != *ticketID {
			continue
		}
		refreshed, err := workflow.ListForSale(ctx, t, event.StartDate, *price)
		if err != nil {
			return err
		}
		fmt.Printf("Ticket listed. You now have %d ticket(s) for %q.\n", len(refreshed), event.Name)
		return nil
	}
	return fmt.Errorf("ticket %s not found among your tickets for event %s", *ticketID, *eventID)
}

func runDelist(ctx context.Context, gateway *api.Client, args []string) error {
	fs := flag.NewFlagSet("delist", flag.ExitOnError)
	ticketID := fs.String("ticket", "", "ticket id")
	fs.Parse(args)
	workflow := resale.NewWorkflow(gateway, &stdinConfirmer{in: bufio.NewReader(os.Stdin)})
	if err := workflow.Delist(ctx, *ticketID); err != nil {
		return err
	}
	fmt.Println("Ticket removed from sale.")
	return nil
}

func runNotify(ctx context.Context, gateway *api.Client, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("notify", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	off := fs.Bool("off", false, "unsubscribe instead")
	fs.Parse(args)
	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	svc := discovery.NewService(gateway)
	regs, err := svc.ToggleSubscription(ctx, user.ID, *eventID, !*off)
	if err != nil {
		return err
	}
	if discovery.IsSubscribed(regs, *eventID) {
		fmt.Println("You will be notified when tickets open up.")
	} else {
		fmt.Println("Notification subscription removed.")
	}
	return nil
}

func runInterests(ctx context.Context, gateway *api.Client, manager *session.Manager) error {
	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	events, err := gateway.GetNotificationInterests(ctx, user.ID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("You are not watching any events.")
		return nil
	}
	for _, e := range events {
		fmt.Printf("%s  %-24s %s\n", e.ID, e.Name, e.Status)
	}
	return nil
}

func runBarcode(ctx context.Context, gateway *api.Client, manager *session.Manager, args []string) error {
	fs := flag.NewFlagSet("barcode", flag.ExitOnError)
	eventID := fs.String("event", "", "event id")
	ticketID := fs.String("ticket", "", "ticket id")
	out := fs.String("out", "eticket.jpeg", "output image path")
	fs.Parse(args)
	user := manager.CurrentUser()
	if user == nil {
		return session.ErrNotAuthenticated
	}
	event, err := gateway.GetEventByID(ctx, *eventID)
	if err != nil {
		return err
	}
	tickets, err := gateway.GetTicketsByUserAndEventID(ctx, user.ID, *eventID)
	if err != nil {
		return err
	}
	for _, t := range tickets {
		if t.ID != *ticketID {
			continue
		}
		if err := utils.SaveBarcode(t, event.StartDate, time.Now(), *out); err != nil {
			return err
		}
		fmt.Printf("Barcode saved to %s\n", *out)
		return nil
	}
	return fmt.Errorf("ticket %s not found among your tickets for event %s", *ticketID, *eventID)
}
