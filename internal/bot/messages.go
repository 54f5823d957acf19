package bot

// User-facing messages. Telegram HTML.
const (
	MsgWelcome = `Hi! I'm <b>TokenBrain</b>.

Send me a Solana token address and I'll assess its risk in a few seconds.

<i>Example:</i>
<code>EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v</code>`

	MsgHelp = `<b>How to use TokenBrain:</b>

1. Copy a Solana token mint address
2. Send it to me
3. Get a risk assessment

<b>What I check:</b>
• Liquidity
• Token age
• Holder concentration
• Mint and freeze authorities

<b>Risk levels:</b>
• HIGH: high risk, better to avoid
• MEDIUM: be careful
• LOW: relatively safe

<b>Commands:</b>
/start - welcome message
/help - this help
/history - your recent analyses

<i>Disclaimer: TokenBrain does not give financial advice. Always do your own research.</i>`

	MsgInvalidAddress = `This doesn't look like a Solana token address.

Please send a valid address.
<i>Example:</i> <code>EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v</code>`

	MsgTryLater = `Couldn't fetch data for this token.

Please try again in a few minutes.`

	MsgServiceUnavailable = `The analysis service is temporarily unavailable.

Please try again later.`

	MsgGenericError = `Something went wrong. Please try again later.`

	MsgRateLimited = `Too many requests. Please wait a minute before the next analysis.`

	MsgNoHistory = `No analyses yet. Send me a token address to start.`

	MsgUnknownCommand = `Unknown command. Send /help for the list of commands.`
)
