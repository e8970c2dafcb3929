// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify forwards the election change feed to an AMQP fanout
// exchange so other services can follow the tally without polling.
//
//	pub, err := notify.Dial(cfg.AMQPURL, cfg.AMQPExchange)
//	events, cancel := engine.Subscribe(64)
//	go pub.Run(ctx, events)
package notify
