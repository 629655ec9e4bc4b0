// Package cp2102n programs the persistent configuration block of the
// Silicon Labs CP2102N USB-to-UART bridge by issuing vendor-specific
// control transfers. It works with the CP2102N only; the programming
// interface varies wildly across the CP210x family.
//
// The chip keeps its settings (vendor/product/serial strings, GPIO
// configuration, USB power budget) in a 678-byte block that is read and
// written whole, protected by a Fletcher-style checksum the firmware
// validates on write.
//
// # References:
//
// Silicon Labs
//   - [AN978]: CP210x USB-to-UART API Specification (https://www.silabs.com/documents/public/application-notes/AN978-cp210x-usb-to-uart-api-specification.pdf)
//   - [USBXpress]: USBXpress Host SDK for Linux, source of the programming interface (https://www.silabs.com/documents/public/software/USBXpressHostSDK-Linux.tar)
package cp2102n
