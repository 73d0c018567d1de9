// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2026, the Addle contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits HTTP requests per client network.

Each network gets a token bucket refilled at Limiter.Rate tokens per second
and holding at most Limiter.Burst tokens. Rejected requests receive
429 Too Many Requests with a JSON body.
*/
package limiter
