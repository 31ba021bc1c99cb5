// Command snailfish adds snailfish numbers and reports their magnitudes.
package main

func main() {
	execute()
}
