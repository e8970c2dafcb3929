// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Values are resolved in this order, first hit wins:

 1. CLI flags
 2. Environment variables (a .env file in the working directory is loaded first)
 3. Config file given with -c or CONFIG_FILE (yaml, json or toml, read by viper)
 4. Defaults

# CLI Flags and Environment Variables

	-p                PORT               Server port (default 3318)
	-d                DATABASE_URL       Database URL
	-t                DATABASE_TYPE      sqlite (default), postgres or memory
	-c                CONFIG_FILE        Config file path
	-admin            ADMIN_IDENTITY     Admin identity, 0x + 40 hex digits
	-key-salt         IDENTITY_KEY_SALT  Secret for identity key HMAC
	-receipt-salt     RECEIPT_SALT       Secret for ballot receipt codes
	-amqp             AMQP_URL           Broker URL; empty disables publishing
	-amqp-exchange    AMQP_EXCHANGE      Exchange name (default election.events)
	-log-level        LOG_LEVEL          debug, info, warn or error
	-log-format       LOG_FORMAT         text or json
	-print-admin-key                     Print the admin identity key and exit

Config file keys use dotted names: port, database.url, database.type,
admin.identity, identity.key_salt, receipt.salt, amqp.url, amqp.exchange,
log.level, log.format.

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing for sqlite or postgres
  - ADMIN_IDENTITY is missing or malformed
  - IDENTITY_KEY_SALT or RECEIPT_SALT is missing
  - the database type or log format is unknown
*/
package cliparse
