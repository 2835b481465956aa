package main

import "github.com/thanhyclinic/schedule_backend/cmd"

func main() {
	cmd.Execute()
}
