// Package finetune assembles conversation turns into a chat
// fine-tuning dataset with token accounting.
//
// Token counts follow the hosted vision pricing model: text through
// the tiktoken vocabulary, images through a base cost plus a per-tile
// cost after the provider's two-step downscale.
package finetune
