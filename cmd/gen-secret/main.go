package main

import (
	"flag"
	"fmt"
	"os"

	"Athena_Nexus/internal/pkg"
)

// 生成 JWT_SECRET
func main() {
	n := flag.Int("bytes", 32, "secret length in bytes")
	flag.Parse()

	secret, err := pkg.RandHex(*n)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate secret:", err)
		os.Exit(1)
	}
	fmt.Printf("JWT_SECRET=%s\n", secret)
}
