package extract

// Stage one asks the vision model to read everything off the invoice
// image. Stage two turns that transcription into structured line items.
const transcribePrompt = `You are reading a photographed or scanned invoice.
Transcribe every piece of text you can see: company or client names, dates,
invoice numbers, and each line item with its description, quantity, unit
price and total. Preserve currency symbols and codes exactly as written.
Reply with the transcription only, no commentary.`

const structurePrompt = `Below is the transcription of an invoice. Convert it
into a JSON object with this exact shape:

{
  "company": "client or company the invoice is billed to",
  "invoiceNumber": "invoice number if present, else empty string",
  "currency": "ISO currency code, e.g. USD or IQD",
  "items": [
    {
      "description": "line item description",
      "quantity": 1,
      "unitPrice": 0.0,
      "total": 0.0
    }
  ]
}

Rules:
- quantity, unitPrice and total must be plain numbers, no symbols.
- If the currency is Iraqi dinar (IQD, د.ع, dinar), use "IQD".
- If no currency is visible, use "USD".
- Return ONLY the JSON object, no markdown fences and no extra text.

Transcription:
`
