package main

import (
	"log"

	"yashubustudio/pcadvisor/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("起動に失敗しました: %v", err)
	}
}
