package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/turnon/taskpage/server"
)

func main() {
	fmt.Printf("pid: %d\n", os.Getpid())

	cfgFile := flag.String("c", "taskpage.yml", "server config")
	flag.Parse()

	server.Run(*cfgFile)
}
