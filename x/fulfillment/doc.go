/*
Package fulfillment keeps an append-only log of deliveries and donations
received by stations.

Records are keyed by a sequence and never change once written. Any signer
may submit a record. The first signer is recorded as the submitter and
pays for the transaction.
*/
package fulfillment
