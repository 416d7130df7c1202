package assistant

// HelpText lists example utterances by section.
const HelpText = `Here are examples you can ask:

Tasks:
- add task Buy milk tomorrow at 09:00
- add task Call Alice in 2 hours

Notes:
- note Trip: Pack passport and charger
- search notes passport

Reminders:
- remind me in 10 minutes to stretch
- remind me tomorrow at 9 to call mom

Events:
- add event 2025-08-25 14:00 - Demo @HQ

Time:
- what time is it

About you:
- about me
- my projects

Tips:
- Natural dates like 'in 15 minutes', 'today at 18:00', 'tomorrow at 9' work.
- Admins can add training phrases with 'aide phrases add' and POST /api/retrain to improve intent routing.`
