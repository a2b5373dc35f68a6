package transaction

// NumberPrefix is the numerator sequence prefix for transaction documents.
const NumberPrefix = "TRX"
