package main

import "github.com/yashdvishwakarma/tasksaas/cmd"

func main() {
	cmd.Execute()
}
