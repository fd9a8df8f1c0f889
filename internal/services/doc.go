// Package services groups clients for the external systems gymforge
// calls out to: the vision-capable chat completion API used by the
// augmentation stages and the tesseract OCR binary.
package services
