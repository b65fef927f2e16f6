package memory

import "fmt"

func ExampleAddressTable() {
	offsets := NewAddressTable("1.02.0").
		AddSymbolInContext("WorldChrMan", 0x3c080e8, "1.02.0").
		AddSymbolInContext("WorldChrMan", 0x3c0a308, "1.03.2")

	addr := offsets.AddressOrExit("WorldChrMan")
	fmt.Printf("1.02.0 WorldChrMan: 0x%x\n", addr)

	offsets.SetContext("1.03.2")

	addr = offsets.AddressOrExit("WorldChrMan")
	fmt.Printf("1.03.2 WorldChrMan: 0x%x\n", addr)

	live := offsets.Rebase(0x7ff6a0000000)
	fmt.Printf("live WorldChrMan: 0x%x\n", live.AddressOrExit("WorldChrMan"))

	// Output:
	// 1.02.0 WorldChrMan: 0x3c080e8
	// 1.03.2 WorldChrMan: 0x3c0a308
	// live WorldChrMan: 0x7ff6a3c0a308
}
