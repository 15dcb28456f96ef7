package extract

import "fmt"

// ComplaintPrompt asks the service to parse one Zomato complaint details
// page into the complaint schema.
func ComplaintPrompt(raw string) string {
	return fmt.Sprintf(`You are an expert at parsing restaurant complaint details from a delivery partner portal.
Extract the following fields from the provided raw text.
Focus only on the details of the currently displayed complaint.

Required fields (must always be present):
- Reason: the primary reason for the complaint (e.g. "Order was delivered late").
- Status: the current status (e.g. "OPEN", "RESOLVED", "DISMISSED").
- Complaint ID: the unique identifier, only the ID number without any prefix.
- Timestamp: the full date and time string as displayed.
- Description: the detailed description of the customer's issue.
- Customer History: the lines describing the customer's past order behavior.

Optional fields (include only if found):
- Refund Amount: only the amount (e.g. "₹100") or "requested".
- Customer Name: the name of the customer.

Instructions:
- Return the result as a compact JSON object. Do NOT use markdown or code block wrappers.
- If a required field is missing, use an empty string ("").
- Ensure the JSON is valid and compact.

Raw complaint text:
%s`, Truncate(raw))
}

// ReviewPrompt asks the service to parse the bottom-most review card from
// captured review-list text. Parsing runs bottom-up to the first order ID
// so text bleeding in from cards above is ignored.
func ReviewPrompt(raw string) string {
	return fmt.Sprintf(`You are an expert at parsing customer review text from a delivery partner portal. Parse the text starting from the bottom and working upward, stopping at the first occurrence of an Order ID (a string starting with '#'). Extract the following fields based solely on the text within this range, ignoring all data from reviews above this Order ID.

Required fields (must always be present):
- Order ID: the first string starting with '#' found from the bottom upward.
- Timestamp: the date and time (e.g. 'Jul 19, 10:59 PM') closest to and below the Order ID.
- Outlet: the location name immediately following "Orders & Complaints are based on the last 90 days".
- Items Ordered: the item name(s) listed closest to and below the Order ID.

Optional fields (include only if found within the same range):
- Rating: a single digit rating.
- Status: 'UNRESOLVED' or 'EXPIRED' if present.
- Customer Name: the first name appearing immediately below the Order ID. If none, leave empty.
- Customer Info: text including 'New Customer' or 'Repeat Customer' with a date.
- Orders (90d): the number next to 'Orders'.
- Order Value (90d): the amount below 'Bill Total'.
- Complaints (90d): the number next to 'Complaints'.
- Delivery Remark: text indicating delivery status (e.g. 'This order was delivered on time').

Instructions:
- Return the result as a compact JSON object. Do NOT use markdown or code block wrappers.
- If a required field is missing, use an empty string ("").

Review text:
%s`, Truncate(raw))
}

// ExpiryDatePrompt asks the service to convert a free-form expiry phrase
// ("Expires on Mon, 2 PM") into a fixed timestamp format.
func ExpiryDatePrompt(dateText string, year int) string {
	return fmt.Sprintf(`Extract and convert the following expiry date into a full timestamp in IST (India timezone): %q.
Return it in the format: %d-07-27 14:30 (24-hour). Take the year as %d and only give back the date, no explanations.`,
		dateText, year, year)
}
