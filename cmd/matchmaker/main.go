// Command matchmaker computes one pairing cycle from a participant sheet and
// the stored pair history, emits the result as JSON and records the new pairs.
package main

func main() {
	Execute()
}
