// Package webhookevent verifies and decodes signed payment-provider
// webhook deliveries.
//
// The provider signs each delivery with HMAC-SHA256 over
// "timestamp.body" and sends the result in X-Webhook-Signature /
// X-Webhook-Timestamp headers. Verification uses constant-time
// comparison and a bounded timestamp window to reject replays.
// Decoding yields a typed Event whose payload carries the payment
// intent and embedded booking details.
package webhookevent
