// Command feedwatch tails the live post feed over WebSocket and prints every
// event. Useful for watching the API during development and load tests.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ripple/pkg/feedclient"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8375", "API server host")
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "user password")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}

	ctx := context.Background()
	api := feedclient.New("http://" + *host)
	if _, err := api.Login(ctx, *email, *password); err != nil {
		log.Fatalf("Login failed: %v", err)
	}
	log.Println("Logged in")

	posts, err := api.ListPosts(ctx)
	if err != nil {
		log.Fatalf("Initial feed fetch failed: %v", err)
	}
	feed := feedclient.NewFeed()
	feed.Set(posts)
	log.Printf("Feed loaded with %d posts", feed.Len())

	wsURL := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     "/api/ws/feed",
		RawQuery: "token=" + url.QueryEscape(api.Token()),
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		log.Fatalf("WebSocket dial failed: %v", err)
	}
	defer func() { _ = conn.Close() }()
	log.Println("Watching feed events (Ctrl+C to stop)")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, payload, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			if err := feed.ApplyRaw(payload); err != nil {
				log.Printf("Bad event payload: %v", err)
				continue
			}
			fmt.Printf("%s %s (feed size: %d)\n",
				time.Now().Format(time.TimeOnly), string(payload), feed.Len())
		}
	}()

	select {
	case <-interrupt:
		log.Println("Interrupted")
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	case <-done:
	}
}
