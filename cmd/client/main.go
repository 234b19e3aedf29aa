// Command client is an interactive line-oriented CLI that speaks the wire
// protocol, grounded on original_source/src/main_client.cpp for the exact
// command surface and on the teacher's bots/client.go for the split between
// a writer path (user input) and a reader goroutine (async pushes).
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"limitless/client"
	"limitless/engine"
	"limitless/wire"
)

const defaultPort = 8888

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Options:\n")
	fmt.Fprintf(os.Stderr, "  --host <hostname>  Server hostname (default: 127.0.0.1)\n")
	fmt.Fprintf(os.Stderr, "  --port <port>      Server port (default: %d)\n", defaultPort)
	fmt.Fprintf(os.Stderr, "  --demo             Run demo mode before the interactive prompt\n")
	fmt.Fprintf(os.Stderr, "  --monitor-addr <host:port>  Monitoring HTTP server backing 'book'/'stats' (optional)\n")
}

func printWelcome() {
	fmt.Println("========================================")
	fmt.Println("  Matching Engine Client")
	fmt.Println("========================================")
}

func printHelp() {
	fmt.Println("\nAvailable Commands:")
	fmt.Println("  buy <symbol> <quantity> <price>       - Submit a buy limit order")
	fmt.Println("  sell <symbol> <quantity> <price>      - Submit a sell limit order")
	fmt.Println("  market-buy <symbol> <quantity>        - Submit a market buy order")
	fmt.Println("  market-sell <symbol> <quantity>       - Submit a market sell order")
	fmt.Println("  cancel <order_id>                     - Cancel an order")
	fmt.Println("  modify <order_id> <price> <quantity>  - Modify an order")
	fmt.Println("  book <symbol>                         - Show a market-data snapshot (requires --monitor-addr)")
	fmt.Println("  stats                                 - Show engine-wide counters (requires --monitor-addr)")
	fmt.Println("  help                                  - Show this help message")
	fmt.Println("  quit                                  - Disconnect and exit")
	fmt.Println()
}

func main() {
	host := flag.String("host", "127.0.0.1", "server hostname")
	port := flag.Int("port", defaultPort, "server port")
	demo := flag.Bool("demo", false, "run demo mode before the interactive prompt")
	monitorAddr := flag.String("monitor-addr", "", "monitoring HTTP server backing 'book'/'stats' commands (optional)")
	flag.Usage = usage
	flag.Parse()

	printWelcome()

	addr := fmt.Sprintf("%s:%d", *host, *port)
	fmt.Printf("\nConnecting to server %s...\n", addr)

	c, err := client.Dial(addr, "cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to server. Is the server running? (%v)\n", err)
		os.Exit(1)
	}
	defer c.Close()

	c.OnOrderAck = func(f *wire.OrderAckFrame) {
		status, _ := f.DecodeStatus()
		fmt.Printf("\n[ACK] clientOrderId=%d orderId=%d status=%s message=%q\n> ", f.ClientOrderId, f.OrderId, status, f.GetMessage())
	}
	c.OnOrderReject = func(f *wire.OrderRejectFrame) {
		fmt.Printf("\n[REJECT] clientOrderId=%d reason=%q\n> ", f.ClientOrderId, f.GetReason())
	}
	c.OnExecutionReport = func(f *wire.ExecutionReportFrame) {
		side, _ := f.DecodeSide()
		status, _ := f.DecodeStatus()
		fmt.Printf("\n[EXEC] orderId=%d symbol=%s side=%s price=%s qty=%d remaining=%d status=%s\n> ",
			f.OrderId, f.GetSymbol(), side, engine.Price(f.ExecutionPrice), f.ExecutionQuantity, f.RemainingQuantity, status)
	}
	c.OnMarketData = func(f *wire.MarketDataFrame) {
		fmt.Printf("\n[BOOK] %s bid=%s(%d) ask=%s(%d)\n> ",
			f.GetSymbol(), engine.Price(f.BestBid), f.BidQuantity, engine.Price(f.BestAsk), f.AskQuantity)
	}

	fmt.Println("Successfully connected!")

	if *demo {
		runDemo(c)
	}

	runInteractive(c, *monitorAddr)

	fmt.Println("Goodbye!")
}

// monitorBookView mirrors monitor.bookView's JSON shape; decoding into this
// local copy keeps cmd/client from importing package monitor and its
// Prometheus and websocket dependencies.
type monitorBookView struct {
	Symbol   string `json:"symbol"`
	BestBid  int64  `json:"bestBid"`
	BestAsk  int64  `json:"bestAsk"`
	BidDepth []struct {
		Price    int64  `json:"price"`
		Quantity uint64 `json:"quantity"`
	} `json:"bidDepth"`
	AskDepth []struct {
		Price    int64  `json:"price"`
		Quantity uint64 `json:"quantity"`
	} `json:"askDepth"`
}

func fetchJSON(monitorAddr, path string, out interface{}) error {
	if monitorAddr == "" {
		return fmt.Errorf("no --monitor-addr was given at startup")
	}
	resp, err := http.Get(fmt.Sprintf("http://%s%s", monitorAddr, path))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func runDemo(c *client.Client) {
	fmt.Println("\nRunning demo mode...")
	time.Sleep(500 * time.Millisecond)

	fmt.Println("Submitting buy orders...")
	submit(c, "AAPL", engine.Buy, engine.Limit, "150.00", 100)
	time.Sleep(100 * time.Millisecond)
	submit(c, "AAPL", engine.Buy, engine.Limit, "149.50", 200)
	time.Sleep(100 * time.Millisecond)
	submit(c, "AAPL", engine.Buy, engine.Limit, "149.00", 150)
	time.Sleep(100 * time.Millisecond)

	fmt.Println("\nSubmitting sell orders...")
	submit(c, "AAPL", engine.Sell, engine.Limit, "151.00", 100)
	time.Sleep(100 * time.Millisecond)
	submit(c, "AAPL", engine.Sell, engine.Limit, "151.50", 200)
	time.Sleep(100 * time.Millisecond)

	fmt.Println("\nSubmitting matching order (should create trades)...")
	submit(c, "AAPL", engine.Buy, engine.Limit, "151.50", 150)
	time.Sleep(500 * time.Millisecond)

	fmt.Println("\nSubmitting market order...")
	submit(c, "AAPL", engine.Sell, engine.Market, "0", 50)
	time.Sleep(500 * time.Millisecond)

	fmt.Println("\nDemo completed. Entering interactive mode.")
}

func submit(c *client.Client, symbol string, side engine.Side, typ engine.OrderType, priceStr string, qty engine.Quantity) {
	price, err := client.ParsePrice(priceStr)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if _, err := c.SubmitOrder(symbol, side, typ, price, qty, 0); err != nil {
		fmt.Println("Error:", err)
	}
}

func runInteractive(c *client.Client, monitorAddr string) {
	printHelp()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Print("> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Print("> ")
			continue
		}

		tokens := strings.Fields(line)
		switch tokens[0] {
		case "quit", "exit":
			fmt.Println("Disconnecting...")
			return
		case "help":
			printHelp()
		case "buy", "sell":
			handleLimit(c, tokens)
		case "market-buy", "market-sell":
			handleMarket(c, tokens)
		case "cancel":
			handleCancel(c, tokens)
		case "modify":
			handleModify(c, tokens)
		case "book":
			handleBook(monitorAddr, tokens)
		case "stats":
			handleStats(monitorAddr)
		default:
			fmt.Printf("Unknown command: %s\n", tokens[0])
			fmt.Println("Type 'help' for available commands")
		}

		fmt.Print("> ")
	}
}

func handleLimit(c *client.Client, tokens []string) {
	if len(tokens) < 4 {
		fmt.Printf("Usage: %s <symbol> <quantity> <price>\n", tokens[0])
		return
	}
	symbol := tokens[1]
	qty, err := strconv.ParseUint(tokens[2], 10, 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	price, err := client.ParsePrice(tokens[3])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	side := engine.Buy
	if tokens[0] == "sell" {
		side = engine.Sell
	}
	if _, err := c.SubmitOrder(symbol, side, engine.Limit, price, engine.Quantity(qty), 0); err != nil {
		fmt.Println("Error:", err)
	}
}

func handleMarket(c *client.Client, tokens []string) {
	if len(tokens) < 3 {
		fmt.Printf("Usage: %s <symbol> <quantity>\n", tokens[0])
		return
	}
	symbol := tokens[1]
	qty, err := strconv.ParseUint(tokens[2], 10, 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	side := engine.Buy
	if tokens[0] == "market-sell" {
		side = engine.Sell
	}
	if _, err := c.SubmitOrder(symbol, side, engine.Market, 0, engine.Quantity(qty), 0); err != nil {
		fmt.Println("Error:", err)
	}
}

func handleCancel(c *client.Client, tokens []string) {
	if len(tokens) < 2 {
		fmt.Println("Usage: cancel <order_id>")
		return
	}
	orderId, err := strconv.ParseUint(tokens[1], 10, 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := c.CancelOrder(orderId); err != nil {
		fmt.Println("Error:", err)
	}
}

func handleModify(c *client.Client, tokens []string) {
	if len(tokens) < 4 {
		fmt.Println("Usage: modify <order_id> <price> <quantity>")
		return
	}
	orderId, err := strconv.ParseUint(tokens[1], 10, 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	price, err := client.ParsePrice(tokens[2])
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	qty, err := strconv.ParseUint(tokens[3], 10, 64)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	if err := c.ModifyOrder(orderId, price, engine.Quantity(qty)); err != nil {
		fmt.Println("Error:", err)
	}
}

// handleBook is the supplemented "book SYM" command (SPEC_FULL.md §4.9): the
// wire protocol has no client-initiated request for a MARKET_DATA snapshot,
// so this reads the monitoring HTTP server's GET /book/{symbol} instead,
// requiring --monitor-addr at startup.
func handleBook(monitorAddr string, tokens []string) {
	if len(tokens) < 2 {
		fmt.Println("Usage: book <symbol>")
		return
	}
	var view monitorBookView
	if err := fetchJSON(monitorAddr, "/book/"+tokens[1], &view); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("%s  bid=%s  ask=%s\n", view.Symbol, engine.Price(view.BestBid), engine.Price(view.BestAsk))
	for _, lvl := range view.BidDepth {
		fmt.Printf("  bid  %s x %d\n", engine.Price(lvl.Price), lvl.Quantity)
	}
	for _, lvl := range view.AskDepth {
		fmt.Printf("  ask  %s x %d\n", engine.Price(lvl.Price), lvl.Quantity)
	}
}

// handleStats is the supplemented "stats" command, reading the monitoring
// HTTP server's GET /stats (engine.Stats, JSON-encoded).
func handleStats(monitorAddr string) {
	var stats struct {
		TotalOrders        uint64 `json:"TotalOrders"`
		TotalTrades        uint64 `json:"TotalTrades"`
		BookCount          int    `json:"BookCount"`
		OrderToSymbolCount int    `json:"OrderToSymbolCount"`
	}
	if err := fetchJSON(monitorAddr, "/stats", &stats); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("orders=%d trades=%d books=%d tracked=%d\n", stats.TotalOrders, stats.TotalTrades, stats.BookCount, stats.OrderToSymbolCount)
}
