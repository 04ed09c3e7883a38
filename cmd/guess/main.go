package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Brownie44l1/numguess/internal/client"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:3000", "server address")
	timeout := flag.Duration("timeout", 5*time.Second, "how long to wait for the server")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: guess [options] <number 0-100>")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	n, err := strconv.Atoi(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "not a number: %s\n", flag.Arg(0))
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := client.New(*addr).Guess(ctx, n)
	if err != nil {
		fmt.Fprintf(os.Stderr, "guess failed: %v\n", err)
		os.Exit(1)
	}

	if result.Equal() {
		fmt.Printf("Correct! The number was %d.\n", result.Rand)
		return
	}
	fmt.Printf("Nope, the number was %d.\n", result.Rand)
}
