/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/biobalance/admin/cmd"

func main() {
	cmd.Execute()
}
