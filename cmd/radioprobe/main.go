// radioprobe resets the radio and dumps its status, pending IRQ flags and
// accumulated device errors. Useful when bringing up a new board.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/hatstand/lorapong"
)

func main() {
	flag.Parse()

	radio, _ := lorapong.NewRadio(nil)
	defer radio.Close()

	if err := radio.Reset(); err != nil {
		log.Fatalf("Failed to reset radio: %v", err)
	}

	status, err := radio.Status()
	if err != nil {
		log.Fatalf("Failed to read status: %v", err)
	}
	fmt.Printf("Status:        %#02x (%s, chip mode %d)\n", byte(status), status.CommandStatus(), status.ChipMode())

	irq, err := radio.IrqStatus()
	if err != nil {
		log.Fatalf("Failed to read IRQ status: %v", err)
	}
	fmt.Printf("IRQ flags:     %#04x\n", irq)

	errs, err := radio.DeviceErrors()
	if err != nil {
		log.Fatalf("Failed to read device errors: %v", err)
	}
	fmt.Printf("Device errors: %#04x\n", errs)
}
