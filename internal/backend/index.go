package backend

// indexHTML is the minimal page served at the root. The editing UI talks to
// the JSON API; this shell only offers an upload entry point.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1">
	<title>phototune</title>
</head>
<body>
	<main>
		<h1>phototune</h1>
		<p>Upload a photo to start an editing session.</p>
		<form action="/api/upload" method="post" enctype="multipart/form-data">
			<input type="file" name="image" accept="image/jpeg,image/png,image/gif" required>
			<button type="submit">Upload</button>
		</form>
	</main>
</body>
</html>
`
