// Command tokenbrain analyzes Solana tokens from the command line,
// over HTTP or as a Telegram bot.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
