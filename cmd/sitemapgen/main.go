package main

import "github.com/polyglottis/sitemapgen/internal/cli"

func main() {
	cli.Execute()
}
