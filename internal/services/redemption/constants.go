package redemption

// MaxRedeemQuantity bounds a single redemption request.
const MaxRedeemQuantity = 10
