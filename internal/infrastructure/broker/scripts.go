package broker

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Each script appends to its target before it removes the source entry. A
// failing redis.call aborts the script, so a job is never left in neither place.
var (
	// KEYS: delayed set, stream. ARGV: member, field/value pairs.
	promoteScript = redis.NewScript(`
if redis.call('ZSCORE', KEYS[1], ARGV[1]) == false then
	return 0
end
redis.call('XADD', KEYS[2], '*', unpack(ARGV, 2))
redis.call('ZREM', KEYS[1], ARGV[1])
return 1
`)

	// KEYS: stream, target stream. ARGV: group, entry id, field/value pairs.
	moveScript = redis.NewScript(`
redis.call('XADD', KEYS[2], '*', unpack(ARGV, 3))
redis.call('XACK', KEYS[1], ARGV[1], ARGV[2])
redis.call('XDEL', KEYS[1], ARGV[2])
return 1
`)

	// KEYS: stream, delayed set. ARGV: group, entry id, score, member.
	parkScript = redis.NewScript(`
redis.call('ZADD', KEYS[2], ARGV[3], ARGV[4])
redis.call('XACK', KEYS[1], ARGV[1], ARGV[2])
redis.call('XDEL', KEYS[1], ARGV[2])
return 1
`)
)

// move settles entry id and appends the job to target in one step.
func (c *Client) move(ctx context.Context, id, target, body string, attempt int, extra ...string) error {
	args := []any{c.group, id, fieldBody, body, fieldAttempt, strconv.Itoa(attempt)}
	for _, v := range extra {
		args = append(args, v)
	}

	return moveScript.Run(ctx, c.redis, []string{c.stream, target}, args...).Err()
}

// bury moves entry id to the dead-letter stream with the reason it failed.
func (c *Client) bury(ctx context.Context, id, body string, attempt int, reason string) error {
	return c.move(ctx, id, c.deadLetter, body, attempt, fieldError, reason)
}

// discard drops an entry that cannot be turned into a job.
func (c *Client) discard(ctx context.Context, id string) error {
	_, err := c.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.XAck(ctx, c.stream, c.group, id)
		pipe.XDel(ctx, c.stream, id)

		return nil
	})

	return err
}
