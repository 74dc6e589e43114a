package redisarchive

// luaAppendTrace atomically increments the per-run sequence, embeds it into
// the record JSON, and appends the record to the run's trace ZSET with
// score=seq, so concurrent appenders never interleave sequence numbers.
//
// KEYS[1] = seq key
// KEYS[2] = trace zset key
// ARGV[1] = record JSON string
// ARGV[2] = TTL seconds (0 = no expiry)
//
// Returns: sequence (number)
const luaAppendTrace = `
local seq = redis.call('INCR', KEYS[1])

-- prepare record JSON with sequence set
local rec = cjson.decode(ARGV[1])
rec['sequence'] = seq
local recjson = cjson.encode(rec)

-- append to trace zset with score=seq
redis.call('ZADD', KEYS[2], seq, recjson)

local ttl = tonumber(ARGV[2])
if ttl and ttl > 0 then
  redis.call('EXPIRE', KEYS[1], ttl)
  redis.call('EXPIRE', KEYS[2], ttl)
end

return seq
`
