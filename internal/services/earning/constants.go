package earning

// CooldownKeyPrefix namespaces cooldown counters away from other
// limiter users sharing the same store.
const CooldownKeyPrefix = "earn"
